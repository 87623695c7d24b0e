package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"honey-shop/internal/config"
	"honey-shop/internal/events"
	"honey-shop/internal/logger"

	"github.com/spf13/cobra"
)

// NewWatchEventsCommand creates the watch-events command.
func NewWatchEventsCommand(rootOpts *RootOptions) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "watch-events",
		Short: "Print order events from Kafka as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if len(cfg.Kafka.Brokers) == 0 {
				return fmt.Errorf("KAFKA_BROKERS is not set")
			}
			if group == "" {
				group = cfg.Kafka.GroupID
			}

			log, err := logger.NewCLI(rootOpts.Verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer := events.NewConsumer(cfg.Kafka.Brokers, group, cfg.Kafka.Topic, log)
			out := cmd.OutOrStdout()
			err = consumer.Run(ctx, func(ctx context.Context, env events.Envelope) error {
				return printEvent(out, env)
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "consumer group (defaults to KAFKA_GROUP_ID)")

	return cmd
}

func printEvent(w io.Writer, env events.Envelope) error {
	ts := env.OccurredAt.Format("2006-01-02 15:04:05")

	switch env.EventType {
	case events.EventOrderPlaced:
		p, err := events.DecodePayload[events.OrderPlacedPayload](env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s placed  %s %s items=%d total=%s\n", ts, p.OrderID, p.CustomerEmail, len(p.Items), p.TotalAmount)
		return err
	case events.EventOrderStatusChanged:
		p, err := events.DecodePayload[events.OrderStatusChangedPayload](env)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s status  %s %s -> %s\n", ts, p.OrderID, p.From, p.To)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s %s %s\n", ts, env.EventType, env.CorrelationID)
		return err
	}
}
