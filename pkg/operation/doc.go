/*
Package operation runs a patch pass over a source tree.

	+-------------+
	|   Scanner   |
	|  (SCANNING) |
	+------+------+
	       |
	+------+------+
	| Rule Engine |
	| (PROCESSING)|
	+------+------+
	       |
	+------+------+
	|   Status    |
	|  (storage)  |
	+-------------+

🔄 Flow:
 1. The scanner lists candidate files; a scan error ends the run
 2. Each file is read, transformed by the engine and, if any rule matched,
    written back atomically (after an optional .bak copy)
 3. A read or write failure is reported and counted; the next file is processed
 4. In dry run mode nothing is written and a unified diff is logged instead

Files are processed one at a time, in scan order. The context is checked
between files.

🔍 Example:

	run, err := operation.New(operation.Options{
		Scanner: scanner,
		Engine:  rule.NewEngine(rules...),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	result, err := run.Execute(ctx)
*/
package operation
