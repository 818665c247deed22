// Package progress reports how far a run has come.
package progress

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Reporter receives the merged and total sample counts of a run.
type Reporter interface {
	Report(done, total int)
}

// Func adapts a function to Reporter.
type Func func(done, total int)

func (f Func) Report(done, total int) { f(done, total) }

// Multi reports to every reporter in order.
type Multi []Reporter

func (m Multi) Report(done, total int) {
	for _, r := range m {
		r.Report(done, total)
	}
}

// Log prints progress through the standard logger at most once per Every.
type Log struct {
	Every time.Duration

	last time.Time
}

func (l *Log) Report(done, total int) {
	now := time.Now()
	if done < total && now.Sub(l.last) < l.Every {
		return
	}
	l.last = now
	log.Printf("finished: %f", Fraction(done, total))
}

// Fraction returns done/total, 1 for an empty run.
func Fraction(done, total int) float32 {
	if total == 0 {
		return 1
	}
	return float32(done) / float32(total)
}

// Message is the JSON payload published for each report.
type Message struct {
	Run   string `json:"run"`
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// MQTT publishes progress messages to a broker topic.
type MQTT struct {
	client  mqtt.Client
	topic   string
	run     string
	timeout time.Duration
}

// DialMQTT connects to broker (for example "tcp://localhost:1883").
func DialMQTT(broker, topic, run string) (*MQTT, error) {
	opt := mqtt.NewClientOptions()
	opt.AddBroker(broker)
	opt.SetClientID("rgae-" + run)
	client := mqtt.NewClient(opt)

	const timeout = 10 * time.Second
	tok := client.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, err)
	}
	return &MQTT{client: client, topic: topic, run: run, timeout: timeout}, nil
}

// Report publishes without waiting for delivery; failures are logged and the run continues.
func (m *MQTT) Report(done, total int) {
	payload, err := json.Marshal(Message{Run: m.run, Done: done, Total: total})
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}
	tok := m.client.Publish(m.topic, 0, false, payload)
	go func() {
		if tok.WaitTimeout(m.timeout) && tok.Error() != nil {
			log.Printf("mqtt publish: %v", tok.Error())
		}
	}()
}

// Close disconnects from the broker after in-flight messages are sent.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
}
