package agent

import (
	"fmt"
	"time"

	"github.com/jetrmm/teagent/agent/common"
	"github.com/jetrmm/teagent/shared"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

// NatsReporter publishes run reports as msgpack to teagent.<hostname>
type NatsReporter struct {
	Conn    *nats.Conn
	Subject string
}

// SetupNatsOptions
// A failed connection is retried briefly; reports are best effort.
func SetupNatsOptions(name string, logger *logrus.Logger) []nats.Option {
	opts := make([]nats.Option, 0)
	opts = append(opts, nats.Name(fmt.Sprintf(common.NATS_CLIENT_NAME_FMT, name)))
	opts = append(opts, nats.Timeout(5*time.Second))
	opts = append(opts, nats.ReconnectWait(time.Second*2))
	opts = append(opts, nats.MaxReconnects(3))
	opts = append(opts, nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
		if err != nil {
			logger.Debugf("NATS Disconnected due to: %s", err)
		}
	}))
	opts = append(opts, nats.ErrorHandler(func(conn *nats.Conn, subscription *nats.Subscription, err error) {
		logger.Errorf("NATS Error: %v", err)
	}))
	return opts
}

// ConnectReporter connects to the NATS server at url
func ConnectReporter(url, hostname string, logger *logrus.Logger) (*NatsReporter, error) {
	nc, err := nats.Connect(url, SetupNatsOptions(hostname, logger)...)
	if err != nil {
		return nil, err
	}
	return &NatsReporter{
		Conn:    nc,
		Subject: ReportSubject(hostname),
	}, nil
}

func ReportSubject(hostname string) string {
	if hostname == "" {
		hostname = "unknown"
	}
	return common.NATS_SUBJECT_PREFIX + "." + hostname
}

// EncodeReport serializes r the way the server expects it
func EncodeReport(r *shared.RunReport) ([]byte, error) {
	var payload []byte
	err := codec.NewEncoderBytes(&payload, new(codec.MsgpackHandle)).Encode(r)
	return payload, err
}

func (n *NatsReporter) Report(r *shared.RunReport) error {
	payload, err := EncodeReport(r)
	if err != nil {
		return err
	}
	if err := n.Conn.Publish(n.Subject, payload); err != nil {
		return err
	}
	return n.Conn.FlushTimeout(5 * time.Second)
}

func (n *NatsReporter) Close() {
	n.Conn.Close()
}
