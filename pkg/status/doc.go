/*
Package status tracks the outcome of every processed archive in a run.

	            +-------------+
	            |   Status    |
	            | (Tracking)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Tracker  |           | Format  |
	| (Results) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Defines the vocabulary of outcomes (per entry, per archive, per run)
- Collects results from concurrent workers without losing any
- Renders results and the final accounting for the terminal

🔄 Flow:
1. A worker finishes an archive and hands its ItemResult to the Tracker
2. The Tracker appends it under a mutex, in completion order
3. After the last batch, Summarize folds everything into a RunSummary
4. The run command prints FormatItemLine per item and FormatSummary once

📝 Design Philosophy:
Workers never interpret each other's results; they only append. All
aggregation happens once, at the end, on the caller's goroutine. Display
formatting lives here so the run and scan commands word things the same
way, but log wording belongs to the packages doing the work.

🔍 Example:

	tracker := status.NewTracker()

	// In each worker:
	tracker.Add(result)

	// After the run:
	summary := tracker.Summarize(len(items))
	if summary.HasFailures() {
		os.Exit(1)
	}
*/
package status
