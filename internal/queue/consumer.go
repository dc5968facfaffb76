package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const scheduleLogFile = "logs/schedule.log"

// StartScheduleConsumer connects to RabbitMQ, declares the durable
// schedule.changed queue and consumes it, appending one line per message
// to logs/schedule.log.  It runs a reconnect loop with exponential
// backoff and never returns under normal operation; processing errors are
// logged and the offending message rejected so the server keeps running.
func StartScheduleConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("schedule-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("schedule-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ScheduleChangedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	deliveries, err := ch.Consume(ScheduleChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}

	log.Printf("schedule-consumer: consuming %s", ScheduleChangedQueue)
	for d := range deliveries {
		if err := handleDelivery(d.Body); err != nil {
			log.Printf("schedule-consumer: %v", err)
			_ = d.Reject(false)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

func handleDelivery(body []byte) error {
	var ev ScheduleChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	line := fmt.Sprintf("%s run=%d day=%d source=%s events=%v scenes=%v\n",
		time.Now().UTC().Format(time.RFC3339), ev.RunID, ev.Day, ev.Source, ev.EventIDs, ev.SceneIDs)
	return appendLog(line)
}

func appendLog(line string) error {
	if err := os.MkdirAll(filepath.Dir(scheduleLogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(scheduleLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append log line: %w", err)
	}
	return nil
}
