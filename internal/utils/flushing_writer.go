package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

type fileDescriptor interface {
	Fd() uintptr
}

// FlushingWriter serializes writes and flushes buffered destinations after every write.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps the provided writer. Wrapping an existing FlushingWriter returns it unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if existingWriter, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return existingWriter
	}
	return &FlushingWriter{writer: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.writer == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	bytesWritten, writeError := flushingWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flushableWriter, canFlush := flushingWriter.writer.(flusher); canFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}

// Fd exposes the descriptor of the wrapped writer so terminal detection sees through the wrapper.
// Writers without a descriptor report an invalid one.
func (flushingWriter *FlushingWriter) Fd() uintptr {
	if flushingWriter == nil {
		return ^uintptr(0)
	}
	if descriptorWriter, hasDescriptor := flushingWriter.writer.(fileDescriptor); hasDescriptor {
		return descriptorWriter.Fd()
	}
	return ^uintptr(0)
}
