package main

import (
	"github.com/dmitrymomot/authguard/pkg/email"
	"github.com/dmitrymomot/authguard/pkg/httpserver"
	"github.com/dmitrymomot/authguard/pkg/mongo"
	"github.com/dmitrymomot/authguard/pkg/notification"
	"github.com/dmitrymomot/authguard/pkg/redis"
)

type appConfig struct {
	AppName string `env:"APP_NAME" envDefault:"authguard"`
	Env     string `env:"APP_ENV" envDefault:"development"`

	Redis        redis.Config
	Mongo        mongo.Config
	Email        email.Config
	Notification notification.Config
	HTTP         httpserver.Config
}
