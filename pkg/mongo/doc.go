// Package mongo manages the MongoDB connection used by the user and API client
// repositories.
//
// Configuration comes from MONGODB_* environment variables. New retries the
// initial connect and ping, which covers a database container that starts
// after the service. Healthcheck plugs into the worker's /healthz endpoint.
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, "")
//	if err != nil {
//	    return err
//	}
//	users := db.Collection("users")
//
// IsNotFound and IsDuplicateKey classify driver errors without importing the
// driver in callers.
package mongo
