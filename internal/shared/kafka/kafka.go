package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type Writer = kafka.Writer

// MessageWriter é o subconjunto de *kafka.Writer usado pelos publishers (facilita fakes)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageReader é o subconjunto de *kafka.Reader usado pelos consumers
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func NewWriter(brokers string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(splitBrokers(brokers)...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{}, // mesma chave (usuário) cai na mesma partição
		AllowAutoTopicCreation: true,
	}
}

// Writers agrupa um writer por tópico, fechados juntos no shutdown
type Writers struct {
	byTopic map[string]*kafka.Writer
}

func NewWriters(brokers string, topics ...string) *Writers {
	ws := &Writers{byTopic: make(map[string]*kafka.Writer, len(topics))}
	for _, t := range topics {
		if _, ok := ws.byTopic[t]; !ok {
			ws.byTopic[t] = NewWriter(brokers, t)
		}
	}
	return ws
}

// For devolve o writer do tópico; nil se o tópico não foi declarado
func (ws *Writers) For(topic string) MessageWriter {
	w, ok := ws.byTopic[topic]
	if !ok {
		return nil
	}
	return w
}

func (ws *Writers) Close() error {
	var errs []error
	for _, w := range ws.byTopic {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

// Ping abre e fecha uma conexão com o primeiro broker (healthz)
func Ping(ctx context.Context, brokers string) error {
	addrs := splitBrokers(brokers)
	if len(addrs) == 0 {
		return errors.New("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", addrs[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	return conn.Close()
}

// NewGroupReader assina vários tópicos com um único consumer group
func NewGroupReader(brokers string, groupID string, topics ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        splitBrokers(brokers),
		GroupTopics:    topics,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})
}

// WriteJSON serializa o payload e envia com a chave informada
func WriteJSON(ctx context.Context, w MessageWriter, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal kafka payload: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: b,
		Time:  time.Now(),
	}

	return w.WriteMessages(ctx, msg)
}

// ReadNext devolve o tópico junto com a mensagem (readers multi-tópico)
func ReadNext(ctx context.Context, r MessageReader) (topic string, value []byte, err error) {
	m, err := r.ReadMessage(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("read kafka message: %w", err)
	}
	return m.Topic, m.Value, nil
}
