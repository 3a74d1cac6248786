package utils

import (
	"io"
	"sync"
)

// FlushingWriter makes buffered report output visible immediately by invoking Flush when the wrapped writer supports it.
type FlushingWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewFlushingWriter wraps the provided writer, flushing after each write when possible.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
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

	if flushableWriter, supportsFlush := flushingWriter.writer.(interface{ Flush() error }); supportsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
