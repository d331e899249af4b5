// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify pushes admitted votes to live viewers of a poll.

Hub keeps one topic per poll. Each subscriber gets its own buffered
queue, and Publish never waits on a subscriber: when a queue is full the
subscriber is dropped and its Done channel closes. Clients reconnect and
re-read results. Nothing is replayed to late subscribers.

	sub := hub.Subscribe(pollID)
	defer sub.Close()
	for {
		select {
		case ev := <-sub.Events():
			// send ev
		case <-sub.Done():
			return
		}
	}

With several instances behind a load balancer, PGRelay publishes through
postgres NOTIFY instead, and each instance feeds what it hears into its
own Hub.
*/
package notify
