package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("CREWLEDGER_TEST_MODE") == "" {
			_ = os.Setenv("CREWLEDGER_TEST_MODE", "1")
		}
	})
}
