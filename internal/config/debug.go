package config

import "os"

func IsDebug() bool {
	return os.Getenv("EVERE_DEBUG") == "1"
}
