package server

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naturkart_logins_total",
		Help: "Completed login code exchanges by result.",
	}, []string{"result"})

	requestAuthTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "naturkart_request_auth_total",
		Help: "Bearer token resolutions on protected routes by result.",
	}, []string{"result"})
)

func metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
