package markup_test

import (
	"testing"

	"github.com/yaklabco/xml1/internal/markuptest"
	"github.com/yaklabco/xml1/pkg/markup"
)

func TestAllocations_Scanner(t *testing.T) {
	inputs := map[string]string{
		"ascii":      markuptest.Document(20),
		"multi-byte": "<名前 属性=\"値\">\u3000テキスト\u200F\n二行目</名前><!-- コメント -->",
		"comments":   "<a <!-- x --> b=\"1\"><!-- y -->text</a>",
	}

	for name, src := range inputs {
		for _, opts := range []markup.Options{{}, {EmitComments: true, CloseNames: markup.CloseNamePermissive}} {
			scanner := markup.NewScanner(src, opts)

			allocs := testing.AllocsPerRun(50, func() {
				scanner.Reset(src)
				for {
					ev, err := scanner.Next()
					if err != nil {
						t.Fatalf("%s: Next: %v", name, err)
					}
					if ev.Kind == markup.EndOfInput {
						break
					}
				}
			})
			if allocs != 0 {
				t.Fatalf("%s: allocs = %.2f, want 0", name, allocs)
			}
		}
	}
}
