package agent

import (
	"errors"
	"testing"

	"github.com/jetrmm/teagent/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
)

func TestReportSubject(t *testing.T) {
	assert.Equal(t, "teagent.web01", ReportSubject("web01"))
	assert.Equal(t, "teagent.unknown", ReportSubject(""))
}

func TestEncodeReport(t *testing.T) {
	r := shared.NewRunReport("remove", "0.1.0")
	r.Hostname = "web01"
	r.Finish(errors.New("uninstaller failed"))

	payload, err := EncodeReport(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	mh := new(codec.MsgpackHandle)
	mh.RawToString = true
	require.NoError(t, codec.NewDecoderBytes(payload, mh).Decode(&decoded))

	assert.Equal(t, "remove", decoded["action"])
	assert.Equal(t, "web01", decoded["hostname"])
	assert.Equal(t, shared.RESULT_ERROR, decoded["result"])
	assert.Equal(t, "uninstaller failed", decoded["error"])
}
