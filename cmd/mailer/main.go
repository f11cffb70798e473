// The mailer worker consumes verification email events from RabbitMQ and
// delivers them over SMTP. It runs separately from the API server so mail
// delivery can lag or fail without affecting request handling.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/contactshub/contacts-api/internal/config"
	"github.com/contactshub/contacts-api/internal/mailer"
	"github.com/contactshub/contacts-api/internal/queue"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	m := mailer.New(config.LoadSMTP())
	log.Print("mailer worker starting")
	if err := queue.StartEmailConsumer(m); err != nil {
		log.Fatal(err)
	}
}
