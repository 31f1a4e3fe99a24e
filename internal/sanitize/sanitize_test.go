package sanitize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tkilaker/magazine/internal/sanitize"
)

func TestHTML(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Ahoy matey", "Ahoy matey"},
		{"tag", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"entity", "fish &amp; chips", "fish &amp;amp; chips"},
		{"double quote", `say "arr"`, "say &#34;arr&#34;"},
		{"single quote", "cap'n", "cap&#39;n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sanitize.HTML(tc.in))
		})
	}
}

func TestHTMLLeavesNoRawMarkup(t *testing.T) {
	inputs := []string{
		"<", ">", "&", "<<&&>>", "<img src=x onerror=alert(1)>",
		"&lt;already escaped&gt;", "a < b && c > d", "\"'<>&",
	}

	for _, in := range inputs {
		out := sanitize.HTML(in)
		require.NotContains(t, out, "<", "input %q", in)
		require.NotContains(t, out, ">", "input %q", in)

		// Every ampersand in the output must start one of the escape sequences.
		rest := out
		for {
			i := strings.IndexByte(rest, '&')
			if i < 0 {
				break
			}
			rest = rest[i:]
			ok := false
			for _, esc := range []string{"&amp;", "&lt;", "&gt;", "&#34;", "&#39;"} {
				if strings.HasPrefix(rest, esc) {
					ok = true
					break
				}
			}
			require.True(t, ok, "bare ampersand in %q", out)
			rest = rest[1:]
		}
	}
}
