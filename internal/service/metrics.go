package service

import "github.com/prometheus/client_golang/prometheus"

var bookingOutcomes = prometheus.NewCounterVec(
	prometheus.CounterOpts{Namespace: "roombooking", Name: "booking_create_total", Help: "Create-booking attempts by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(bookingOutcomes) }
