package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/netrack/ofswitch/controlplane"
	"github.com/netrack/ofswitch/metrics"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/transport"
)

func promHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// registerHandlers wires the control-plane-facing OpenFlow message
// types into mux: hello/echo for session bring-up, flow-mod/table-mod
// driving surface, and a metrics sample taken after every flow-mod so
// gauges stay current without a separate poller.
func registerHandlers(mux *transport.TypeMux, surface *controlplane.Surface, asyncFilter *controlplane.AsyncFilter, log *logrus.Logger, tableIDs []ofp.Table, reg *metrics.Registry) {
	mux.HandleFunc(transport.TypeHello, func(rw transport.ResponseWriter, r *transport.Request) {
		rw.Header().Set(transport.VersionHeaderKey, uint8(4))
		rw.WriteHeader()
	})

	mux.HandleFunc(transport.TypeEchoRequest, func(rw transport.ResponseWriter, r *transport.Request) {
		rw.Header().Set(transport.VersionHeaderKey, uint8(4))
		rw.WriteHeader()
	})

	mux.HandleFunc(transport.TypeFlowMod, func(rw transport.ResponseWriter, r *transport.Request) {
		var fm ofp.FlowMod
		if _, err := fm.ReadFrom(r.Body); err != nil {
			log.WithError(err).Warn("malformed flow-mod")
			return
		}

		if err := surface.ModifyFlow(&fm); err != nil {
			log.WithError(err).WithField("table", fm.Table).Warn("flow-mod rejected")
		}

		reg.Sample(tableIDs)
	})

	mux.HandleFunc(transport.TypeTableMod, func(rw transport.ResponseWriter, r *transport.Request) {
		var tm ofp.TableMod
		if _, err := tm.ReadFrom(r.Body); err != nil {
			log.WithError(err).Warn("malformed table-mod")
			return
		}

		if err := surface.ModifyTable(&tm); err != nil {
			log.WithError(err).WithField("table", tm.Table).Warn("table-mod rejected")
		}
	})

	mux.HandleFunc(transport.TypeSetAsync, func(rw transport.ResponseWriter, r *transport.Request) {
		var cfg ofp.AsyncConfig
		if _, err := cfg.ReadFrom(r.Body); err != nil {
			log.WithError(err).Warn("malformed set-async")
			return
		}
		asyncFilter.SetAsyncConfig(&cfg)
	})
}
