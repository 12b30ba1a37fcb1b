/*
Package config loads srcpatch run configuration and custom rule sets.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
  - Picks a parser by file name from a registry filled in init()
  - Rejects unknown keys in every format
  - Fills defaults (root src, .ts/.tsx, the standard excluded directories,
    every builtin rule set) for fields left unset
  - Compiles the builtin rule sets followed by the custom rules, so a config
    that loads is a config that can run

An explicitly empty builtins list disables the builtin rule sets.

🔍 Example:

	# srcpatch.yaml
	root: app/src
	ignore: ["legacy/**"]
	builtins: [imports]
	rules:
	  - name: legacy-api-host
	    kind: literal
	    old: api.old.example.com
	    new: api.example.com
	  - name: default-select-import
	    kind: pattern
	    files: "components/**"
	    pattern: "import \\{ (Select) \\} from '([^']+)';"
	    new: "import $1 from '$2';"

	cfg, err := config.Load(ctx, "srcpatch.yaml")
	if err != nil {
		return err
	}
	rules, err := cfg.CompileRules()
*/
package config
