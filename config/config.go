package config

import "time"

type Config struct {
	Web     Web
	Store   Store
	DB      DB
	Cors    Cors
	Auth    Auth
	Report  Report
	Receipt Receipt
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

// Store selects the backend of the blob store: "postgres" or "memory".
type Store struct {
	Backend string `conf:"default:postgres"`
}

type DB struct {
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:poskasir"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:10"`
	DisableTLS   bool   `conf:"default:true"`
}

type Cors struct {
	Origin string
}

type Auth struct {
	SessionLifetime time.Duration `conf:"default:12h"`
	LoginBurst      int           `conf:"default:5"`
	LoginInterval   time.Duration `conf:"default:2s"`
	LoginExpiry     int           `conf:"default:15"`
}

// Report.Timezone is an IANA name; "Local" uses the process time zone.
type Report struct {
	Timezone string `conf:"default:Local"`
}

type Receipt struct {
	StoreName string `conf:"default:Toko Anda"`
	Width     int    `conf:"default:32"`
}
