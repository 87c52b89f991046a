package main

import "flag"

// config holds the switch's startup parameters, parsed from the
// command line.
type config struct {
	listenAddr  string
	metricsAddr string
	tableCount  int
	missConfig  string
	logLevel    string
}

func parseConfig(args []string) (*config, error) {
	fs := flag.NewFlagSet("ofswitch", flag.ContinueOnError)

	c := &config{}
	fs.StringVar(&c.listenAddr, "listen", ":6633", "address to accept OpenFlow controller connections on")
	fs.StringVar(&c.metricsAddr, "metrics", ":9090", "address to serve Prometheus metrics on")
	fs.IntVar(&c.tableCount, "tables", 4, "number of flow tables to provision at startup")
	fs.StringVar(&c.missConfig, "miss", "drop", "default table miss policy: drop, controller or continue")
	fs.StringVar(&c.logLevel, "log-level", "info", "logrus log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}
