// Package engine runs bonsai-inspect's single query to completion while
// guaranteeing a clean exit on an interrupt signal. flow-dps's engine
// supervises a set of named, independently stoppable components in reverse
// registration order; bonsai-inspect only ever has one thing to run (a
// single one-shot query with no background work to tear down), so that
// generality collapses to a straight run-vs-stop race.
package engine

import (
	"os"

	"github.com/rs/zerolog"
)

// Run executes query in the background and races it against stop. If stop
// fires first, Run logs and returns nil immediately, arming a forced exit
// on a second signal. If query finishes first, its error, if any, is
// logged and returned.
func Run(log zerolog.Logger, name string, stop chan os.Signal, query func() error) error {
	log = log.With().Str("engine", name).Logger()

	notify := make(chan error, 1)
	go func() {
		log.Info().Msg("query starting")
		notify <- query()
	}()

	select {
	case <-stop:
		log.Info().Msg("engine stopping")
		go func() {
			<-stop
			log.Warn().Msg("forcing exit")
			os.Exit(1)
		}()
		return nil
	case err := <-notify:
		if err != nil {
			log.Error().Err(err).Msg("query failed")
			return err
		}
		log.Info().Msg("query done")
		return nil
	}
}
