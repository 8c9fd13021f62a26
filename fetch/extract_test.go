package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestExtractParagraphs(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "paragraphs joined by space",
			html: `<html><body><p>First one.</p><div>skip</div><p>Second one.</p></body></html>`,
			want: "First one. Second one.",
		},
		{
			name: "inline markup kept as text",
			html: `<p>Neil <b>Armstrong</b> walked on the <a href="/moon">Moon</a>.</p>`,
			want: "Neil Armstrong walked on the Moon.",
		},
		{
			name: "entities decoded",
			html: `<p>Salt &amp; pepper</p>`,
			want: "Salt & pepper",
		},
		{
			name: "scripts ignored",
			html: `<script><p>nope</p></script><p>yes<script>var x;</script></p>`,
			want: "yes",
		},
		{
			name: "no paragraphs",
			html: `<html><body><div>only divs</div></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractParagraphs(parse(t, tt.html)))
		})
	}
}
