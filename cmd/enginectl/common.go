package main

import (
	"github.com/dukex/integrail/internal/adminhttp"
	"github.com/dukex/integrail/internal/reaper"
)

func newReaper(d *deps) *reaper.Reaper {
	return reaper.New(d.store, d.logger)
}

func newAdminServer(d *deps) *adminhttp.Server {
	return adminhttp.New(d.store, d.interpreter, d.events, d.queue, d.logger)
}
