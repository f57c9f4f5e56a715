// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTPRequested counts issued challenges.
	OTPRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendgate_otp_requested_total",
		Help: "Number of OTP challenges issued.",
	})

	// OTPVerified counts verification outcomes by result (ok, invalid).
	OTPVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lendgate_otp_verified_total",
		Help: "Number of OTP verification attempts by result.",
	}, []string{"result"})

	// SessionsIssued counts signed session cookies handed out.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendgate_sessions_issued_total",
		Help: "Number of session cookies issued.",
	})

	// GateRedirects counts unauthenticated requests bounced to sign-in.
	GateRedirects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lendgate_gate_redirects_total",
		Help: "Number of requests redirected to sign-in by the route gate.",
	})
)
