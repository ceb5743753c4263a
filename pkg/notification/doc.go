// Package notification carries outbound security notifications from the
// services that raise them to the worker that delivers them.
//
// Services call Queue.Enqueue with a Notification built by New. A Dispatcher
// pulls from the same queue and hands each notification to a Deliverer,
// retrying failed deliveries a few times before dropping them with an error
// log. EmailDeliverer renders the email template registered for the
// notification Kind and sends it through an email.Sender.
//
// Two queues are provided: MemoryQueue, a buffered channel for tests and
// single-process deployments, and RedisQueue, a Redis list written with RPUSH
// and consumed with BLPOP so any number of worker processes can share it.
//
//	q := notification.NewRedisQueue(redisClient, cfg.QueueKey)
//	d := notification.NewDispatcher(q, notification.NewEmailDeliverer(sender, "Authguard", support),
//	    notification.WithWorkers(cfg.Workers),
//	    notification.WithLogger(log),
//	)
//	g.Go(d.Run(ctx))
package notification
