/*
Package status owns file storage and outcome tracking for srcpatch runs.

	            +-------------+
	            |   Status    |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Manager  |           | Tracker |
	| (Storage) |           | (Tally) |
	+-----------+           +---------+

🎯 Purpose:
- Reads source files and writes patched content back atomically
- Keeps optional .bak copies of files before they are rewritten
- Counts scanned, modified, unchanged and failed files

🔄 Flow:
1. operation reads a file through FileManager
2. rules run in memory
3. dirty files are written back through FileManager
4. every outcome is handed to StatusReporter

🤝 Interfaces:
- FileManager: file system access, swappable in tests
- StatusReporter: per file outcomes and the final Summary
- FileFormatter: phrasing of debug log records

📝 Writes go through a temp file in the same directory followed by a rename,
so a failed write never leaves a half written source file behind. The temp
file takes the mode of the file it replaces.
*/
package status
