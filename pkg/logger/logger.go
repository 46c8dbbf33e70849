package logger

import (
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Init configures the process-wide logger. Development gets a human-readable
// console writer; anything else logs JSON.
func Init(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if environment == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		log = log.Level(zerolog.DebugLevel)
		return
	}

	log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

func Debug(msg string, keysAndValues ...any) {
	withFields(log.Debug(), keysAndValues).Msg(msg)
}

func Info(msg string, keysAndValues ...any) {
	withFields(log.Info(), keysAndValues).Msg(msg)
}

func Warn(msg string, keysAndValues ...any) {
	withFields(log.Warn(), keysAndValues).Msg(msg)
}

func Error(msg string, keysAndValues ...any) {
	withFields(log.Error(), keysAndValues).Msg(msg)
}

func Fatal(msg string, keysAndValues ...any) {
	withFields(log.Fatal(), keysAndValues).Msg(msg)
}

// withFields attaches key/value pairs to an event. A bare error is accepted
// in place of a pair and logged under "error".
func withFields(ev *zerolog.Event, kv []any) *zerolog.Event {
	for i := 0; i < len(kv); i++ {
		if err, ok := kv[i].(error); ok {
			ev = ev.AnErr("error", err)
			continue
		}
		key, ok := kv[i].(string)
		if !ok || i+1 >= len(kv) {
			ev = ev.Interface("arg", kv[i])
			continue
		}
		ev = ev.Interface(key, kv[i+1])
		i++
	}
	return ev
}
