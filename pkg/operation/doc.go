/*
Package operation implements the per-archive state machine and the batch runner.

	+-------------+
	|   Runner    |
	| (Batches)   |
	+------+------+
	       |
	+------+------+
	|  Processor  |
	| (One Item)  |
	+------+------+
	       |
	clean -> extract -> merge -> finalize

🎯 Purpose:
- Processes one archive at a time: clean temp, extract, merge, finalize
- Dispatches archives in fixed-size batches with a completion barrier
- Applies the processing-mode policy (normal / validate-only / validate-after)

🔄 Flow:
1. Runner slices the discovered items into batches of at most five
2. Each batch member runs Processor.Execute on its own goroutine
3. Execute cleans leftovers, extracts under retry, merges entry by entry
4. The batch barrier holds until every member finished, then the next starts
5. Results land in a tracker; the summary and the banner close the run

⚡ Key Responsibilities:
- Strict step order within one item, no ordering across items
- Failure isolation: a failed item never aborts the run
- Bounded concurrency so a spinning disk is not thrashed
- Audit events for every observable step

📝 Design Philosophy:
Every collaborator is passed in explicitly; the processor reads no global
state. Workers share nothing but the logger (whose writes are atomic per
line) and the audit recorder. A batch is a barrier, not a pool: predictable
filesystem load beats throughput for an unattended merge job.

🔍 Example:

	processor, err := operation.New(operation.Options{
		Config:   cfg,
		Logger:   logger,
		Recorder: recorder,
	})
	if err != nil {
		return err
	}

	runner, err := operation.NewRunner(operation.RunnerOptions{
		Processor: processor,
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	summary, results := runner.Run(ctx, items)
*/
package operation
