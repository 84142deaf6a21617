package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"time"

	"bombit/internal/model"
	"bombit/internal/wire"
)

// main drives N simulated players against a running bombit server: each
// connects, joins, and then sends a randomly chosen move, bomb placement, or
// block placement on a fixed tick while a separate goroutine drains its
// inbound stream.
func main() {
	serverAddr := "localhost:9108"
	numClients := 25
	duration := 30 * time.Second

	log.Printf("loadtest: starting %d clients against %s for %v", numClients, serverAddr, duration)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	var wg sync.WaitGroup
	connected := make(chan struct{}, numClients)
	errs := make(chan error, numClients)

	var connectCount, errorCount int64

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			if err := runClient(ctx, serverAddr, clientID, connected); err != nil {
				select {
				case errs <- err:
				default:
				}
			}
		}(i)

		if i%10 == 0 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-connected:
				connectCount++
			case err := <-errs:
				errorCount++
				log.Printf("loadtest: client error: %v", err)
			case <-ticker.C:
				log.Printf("loadtest: connected=%d errors=%d", connectCount, errorCount)
			}
		}
	}()

	wg.Wait()
	log.Printf("loadtest: completed: %d connections, %d errors", connectCount, errorCount)
}

func runClient(ctx context.Context, addr string, clientID int, connected chan<- struct{}) error {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("client %d failed to connect: %w", clientID, err)
	}
	defer c.Close()

	connected <- struct{}{}

	if err := sendJoin(c, fmt.Sprintf("load%d", clientID)); err != nil {
		return fmt.Errorf("client %d join: %w", clientID, err)
	}

	go readLoop(c)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	rng := rand.New(rand.NewSource(int64(clientID)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := sendRandomAction(c, rng); err != nil {
				return fmt.Errorf("client %d write error: %w", clientID, err)
			}
		}
	}
}

func sendJoin(c net.Conn, name string) error {
	enc := wire.NewEncoder()
	if err := wire.EncodeC2S(enc, wire.Join{Name: name}); err != nil {
		return err
	}
	_, err := c.Write(enc.Bytes())
	return err
}

func sendRandomAction(c net.Conn, rng *rand.Rand) error {
	enc := wire.NewEncoder()
	var msg wire.C2SMessage
	switch rng.Intn(3) {
	case 0:
		msg = wire.PlaceBomb{}
	case 1:
		msg = wire.PlaceBlock{}
	default:
		msg = wire.Move{Direction: model.Direction(rng.Intn(4))}
	}
	if err := wire.EncodeC2S(enc, msg); err != nil {
		return err
	}
	_, err := c.Write(enc.Bytes())
	return err
}

// readLoop drains server->client messages so the socket's read buffer never
// backs up; the load test doesn't assert on content, only on the connection
// staying alive and decodable.
func readLoop(c net.Conn) {
	dec := wire.NewDecoder(c)
	for {
		if _, err := wire.DecodeS2C(dec); err != nil {
			return
		}
	}
}
