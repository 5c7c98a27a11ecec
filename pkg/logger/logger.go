package logger

import "go.uber.org/zap"

// L is the process-wide logger. It defaults to a no-op so library code
// and tests can log without initialization; main swaps in the real one.
var L = zap.NewNop()

func Init() error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	L = l
	return nil
}

func Sync() {
	_ = L.Sync()
}
