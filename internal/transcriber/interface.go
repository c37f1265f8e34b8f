package transcriber

import "context"

// Transcriber converts one audio chunk file into recognized text via a
// remote speech-to-text service.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
