package prisma

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func row(kv ...any) MapItem {
	m := NewMapItem(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		m.Entries.Set(kv[i].(string), kv[i+1].(Item))
	}
	return m
}

func TestFormatItemRows(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")
	result := ListItem{
		row("id", ValueItem{Value: UUID(id)}, "name", ValueItem{Value: String("Ada")}),
		row("name", ValueItem{Value: String("Grace")}, "role", ValueItem{Value: Enum("ADMIN")}),
	}

	out := NewTableFormatter().FormatItem(result)

	assert.Contains(t, out, "_2 rows_")
	for _, want := range []string{"id", "name", "role", "Ada", "Grace", "ADMIN", id.String()} {
		assert.Contains(t, out, want)
	}

	// columns keep first-seen order
	var header string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "role") {
			header = line
			break
		}
	}
	assert.Less(t, strings.Index(header, "id"), strings.Index(header, "name"))
	assert.Less(t, strings.Index(header, "name"), strings.Index(header, "role"))
}

func TestFormatItemSingleMap(t *testing.T) {
	out := NewTableFormatter().FormatItem(row(
		"count", ValueItem{Value: BigInt(12)},
		"tags", ListItem{ValueItem{Value: String("a")}},
		"meta", JSONItem(`{"x":1}`),
	))
	assert.Contains(t, out, "_1 rows_")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, `["a"]`)
	assert.Contains(t, out, `{"x":1}`)
}

func TestFormatItemScalars(t *testing.T) {
	out := NewTableFormatter().FormatItem(ListItem{
		ValueItem{Value: Int(1)},
		ValueItem{Value: Null{}},
		ValueItem{Value: Float(2)},
	})
	assert.Contains(t, out, "value")
	assert.Contains(t, out, "null")
	assert.Contains(t, out, "2.0")
	assert.Contains(t, out, "_3 rows_")

	out = NewTableFormatter().FormatItem(ValueItem{Value: Boolean(true)})
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "_1 rows_")
}

func TestFormatItemEmpty(t *testing.T) {
	tf := NewTableFormatter()
	assert.Equal(t, "_Empty result_", tf.FormatItem(nil))
	assert.Equal(t, "_Empty result_", tf.FormatItem(ListItem{}))
	assert.Equal(t, "_Empty result_", tf.FormatItem(NewMapItem(0)))
}

func TestFormatItemTruncates(t *testing.T) {
	tf := &TableFormatter{MaxWidth: 8, TruncateString: "..."}
	out := tf.FormatItem(ValueItem{Value: String("abcdefghijklmnop")})
	assert.Contains(t, out, "abcde...")
	assert.NotContains(t, out, "abcdefghijklmnop")

	assert.Equal(t, "short", tf.truncate("short"))
	assert.Equal(t, "héllo wo", tf.truncate("héllo wo"))
}
