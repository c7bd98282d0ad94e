// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the listen port, the API key and the request limits applied to the Fiber app.
//
// # Usage
//
//	app := fiber.New(fiber.Config{
//	    BodyLimit:   cfg.Server.BodyLimit(),
//	    ReadTimeout: cfg.Server.ReadTimeout(),
//	})
//	app.Listen(cfg.Server.Address())
package server
