/*
Package runner drives an agent at a fixed tick interval until it is told to stop.

The Runner owns no game logic: every tick it calls Step once and waits. Stopping is always
done through context cancellation; SignalManager turns SIGINT and SIGTERM into a cancelled
context.

# Usage

	signals := runner.NewSignalManager(context.Background())
	defer signals.Stop()

	r := runner.NewRunner(
		runner.WithInterval(2*time.Second),
		runner.WithLogger(logger),
	)
	if err := r.Run(signals.Context(), agent); err != nil {
		log.Fatal(err)
	}
*/
package runner
