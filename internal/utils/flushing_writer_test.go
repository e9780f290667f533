package utils_test

import (
	"bufio"
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/laterem/internal/utils"
)

func TestFlushingWriterFlushesBufferedWriters(testInstance *testing.T) {
	destination := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(destination, 4096)

	writer := utils.NewFlushingWriter(bufferedWriter)
	bytesWritten, writeError := writer.Write([]byte("Staging files\n"))

	require.NoError(testInstance, writeError)
	require.Equal(testInstance, 14, bytesWritten)
	require.Equal(testInstance, "Staging files\n", destination.String())
}

func TestNewFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	writer := utils.NewFlushingWriter(&bytes.Buffer{})
	require.Same(testInstance, writer, utils.NewFlushingWriter(writer))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}

func TestFlushingWriterExposesDescriptor(testInstance *testing.T) {
	temporaryFile, createError := os.CreateTemp(testInstance.TempDir(), "output")
	require.NoError(testInstance, createError)
	testInstance.Cleanup(func() { _ = temporaryFile.Close() })

	fileWriter, isFlushingWriter := utils.NewFlushingWriter(temporaryFile).(*utils.FlushingWriter)
	require.True(testInstance, isFlushingWriter)
	require.Equal(testInstance, temporaryFile.Fd(), fileWriter.Fd())

	bufferWriter, isBufferFlushingWriter := utils.NewFlushingWriter(&bytes.Buffer{}).(*utils.FlushingWriter)
	require.True(testInstance, isBufferFlushingWriter)
	require.Equal(testInstance, ^uintptr(0), bufferWriter.Fd())
}
