package transport

import (
	"time"

	"github.com/kilianp07/gelflog/core/model"
	coretransport "github.com/kilianp07/gelflog/core/transport"
)

// NopClient discards every entry.
type NopClient struct{}

func (NopClient) SetConfig(coretransport.Options) error { return nil }

func (NopClient) Emit(model.Level, string, model.Payload) error { return nil }

func (NopClient) Close() error { return nil }

func msDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
