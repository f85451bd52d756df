package config

import "time"

type Config struct {
	Web     Web
	DB      DB
	Cors    Cors
	Listing Listing
	Rate    Rate
	Session Session
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:listings"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

// Listing holds the knobs of the listing lifecycle. FeePerDay is in the
// same currency unit as request prices.
type Listing struct {
	FeePerDay     int           `conf:"default:5,help:listing fee charged per listing day"`
	SweepInterval time.Duration `conf:"default:10m"`
	SweepTimeout  time.Duration `conf:"default:2m"`
}

type Rate struct {
	Burst  int           `conf:"default:20"`
	RPS    float64       `conf:"default:2"`
	Expiry time.Duration `conf:"default:10m,help:idle time before a client limiter is dropped"`
}

type Session struct {
	Lifetime   time.Duration `conf:"default:24h"`
	CookieName string        `conf:"default:session"`
}
