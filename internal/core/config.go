package core

import "time"

type AppConfig interface {
	GetRuntimePath() string
	GetMemoryDir() string
	GetPersonaPath() string
	GetHistorySize() int
}

type GeneratorConfig interface {
	GetContextSize() int
	GetTimeout() time.Duration
	GetMaxReplyBytes() int
}
