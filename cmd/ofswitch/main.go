// Command ofswitch runs a software OpenFlow 1.3 datapath: a flow
// table pipeline driven by a control-plane connection, with its
// counters exported to Prometheus.
package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/netrack/ofswitch/controlplane"
	"github.com/netrack/ofswitch/flowtable"
	"github.com/netrack/ofswitch/metrics"
	"github.com/netrack/ofswitch/ofp"
	"github.com/netrack/ofswitch/pipeline"
	"github.com/netrack/ofswitch/transport"
	"github.com/netrack/ofswitch/transport/logsink"
)

func missConfigFromString(s string) flowtable.MissConfig {
	switch s {
	case "controller":
		return flowtable.MissController
	case "continue":
		return flowtable.MissContinue
	default:
		return flowtable.MissDrop
	}
}

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.logLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctrl := logsink.New(logrus.NewEntry(log).WithField("component", "controlplane"))
	asyncFilter := controlplane.NewAsyncFilter(ctrl)

	p := pipeline.New(transport.DiscardEgress, asyncFilter)
	miss := missConfigFromString(cfg.missConfig)
	for i := 0; i < cfg.tableCount; i++ {
		p.AddTable(ofp.Table(i), flowtable.New(miss))
	}

	surface := controlplane.New(p)
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	metricsRegistry := metrics.NewRegistry(surface, reg)

	tableIDs := make([]ofp.Table, cfg.tableCount)
	for i := range tableIDs {
		tableIDs[i] = ofp.Table(i)
	}

	mux := transport.NewTypeMux()
	registerHandlers(mux, surface, asyncFilter, log, tableIDs, metricsRegistry)

	go serveMetrics(cfg.metricsAddr, reg, log)

	srv := &transport.Server{Addr: cfg.listenAddr, Handler: mux}
	log.WithField("addr", cfg.listenAddr).Info("ofswitch listening")

	if err := srv.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logrus.Logger) {
	handler := http.NewServeMux()
	handler.Handle("/metrics", promHandler(reg))

	log.WithField("addr", addr).Info("metrics listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.WithError(err).Error("metrics server exited")
	}
}
