package metrics

import "go.uber.org/fx"

// Module provides server metrics to the fx container.
var Module = fx.Provide(func() *ServerMetrics { return New(nil) })
