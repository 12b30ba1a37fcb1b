package rule_test

import (
	"fmt"

	"github.com/walteh/srcpatch/pkg/rule"
)

func ExampleEngine_Apply() {
	rules, err := rule.Compile([]rule.Definition{
		{
			Name:    "default-badge-import",
			Kind:    rule.KindPattern,
			Pattern: `import \{ (Badge) \} from '([^']+)';`,
			New:     `import $1 from '$2';`,
		},
		{
			Name: "rename",
			Kind: rule.KindLiteral,
			Old:  "Motorcycle",
			New:  "Bike",
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	res := rule.NewEngine(rules...).Apply("card.tsx", "import { Badge } from 'x'; <Badge>Motorcycle</Badge>")

	fmt.Printf("Content: %s\n", res.Content)
	fmt.Printf("Dirty: %v\n", res.Dirty)
	fmt.Printf("Matched: %v\n", res.Matched)

	// Output:
	// Content: import Badge from 'x'; <Badge>Bike</Badge>
	// Dirty: true
	// Matched: [default-badge-import rename]
}

func ExampleCompile() {
	_, err := rule.Compile([]rule.Definition{
		{Name: "ok", Kind: rule.KindLiteral, Old: "a", New: "b"},
		{Name: "broken", Kind: rule.KindInsert, Trigger: "toast("},
	})
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: rule 1: rule "broken": text is required
}
