package kafka

import (
	"app/internal/logger"
	"app/internal/model"
	"app/internal/orders"
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// OrderIntake читает сырые ордера из кафки, прогоняет их через
// оркестратор и публикует результат в топик готовых ордеров.
type OrderIntake struct {
	manager *orders.OrderManager
	log     logger.Logger
	writer  *kafka.Writer
	reader  *kafka.Reader
}

// ResultMessage — что уходит в топик готовых ордеров.
// Либо Result, либо Error, всегда вместе с исходным запросом.
type ResultMessage struct {
	Order  model.RawOrder     `json:"order"`
	Result *model.OrderResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func NewOrderIntake(newOrderTopic, readyOrderTopic, brokerAddress string, manager *orders.OrderManager, log logger.Logger) (*OrderIntake, error) {
	intake := OrderIntake{
		manager: manager,
		log:     log,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{brokerAddress},
			Topic:   newOrderTopic,
			GroupID: "order-service",
		}),
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers: []string{brokerAddress},
			Topic:   readyOrderTopic,
		}),
	}

	ctx := context.Background()
	for _, topic := range []string{newOrderTopic, readyOrderTopic} {
		if err := createTopic(ctx, topic, brokerAddress); err != nil {
			log.Error("ошибка при создании топика: " + err.Error())
			return nil, fmt.Errorf("ошибка при создании топика: %w", err)
		}
	}

	return &intake, nil
}

// Close закрывает reader и writer.
func (k *OrderIntake) Close() {
	k.writer.Close()
	k.reader.Close()
}

func createTopic(ctx context.Context, topic, brokerAddress string) error {
	conn, err := kafka.DialContext(ctx, "tcp", brokerAddress)
	if err != nil {
		return fmt.Errorf("ошибка подключения к Kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("ошибка получения контроллера: %w", err)
	}
	controllerConn, err := kafka.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("ошибка подключения к контроллеру: %w", err)
	}
	defer controllerConn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}

	if err := controllerConn.CreateTopics(topicConfigs...); err != nil {
		return fmt.Errorf("ошибка создания топика: %w", err)
	}

	return nil
}

func decodeRawOrder(value []byte) (model.RawOrder, error) {
	var raw model.RawOrder
	if err := json.Unmarshal(value, &raw); err != nil {
		return model.RawOrder{}, fmt.Errorf("разбор сообщения с ордером: %w", err)
	}
	return raw, nil
}

// publishResult отправляет результат обработки в топик готовых ордеров.
func (k *OrderIntake) publishResult(ctx context.Context, msg ResultMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		k.log.Error("Ошибка при маршалинге результата: ", err)
		return
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{Value: payload}); err != nil {
		k.log.Error("Ошибка при отправке результата: ", err)
	}
}

// Run читает сообщения до отмены контекста. Каждый ордер проходит
// полный конвейер, ошибка конвейера публикуется, а не скрывается.
func (k *OrderIntake) Run(ctx context.Context) {

	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			k.log.Error("Ошибка при чтении сообщения: ", err)
			continue
		}

		k.log.Infow("Получен ордер из кафки",
			"partition", msg.Partition, "offset", msg.Offset)

		raw, err := decodeRawOrder(msg.Value)
		if err != nil {
			k.log.Error("Ошибка при разборе ордера: ", err)
			k.publishResult(ctx, ResultMessage{Error: err.Error()})
		} else {
			result, placeErr := k.manager.PlaceOrder(ctx, raw)
			out := ResultMessage{Order: raw, Result: result}
			if placeErr != nil {
				out.Error = placeErr.Error()
			}
			k.publishResult(ctx, out)
		}

		// Фиксация смещения только после публикации результата.
		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			k.log.Error("Ошибка при фиксации смещения: ", err.Error())
		}
	}
}
