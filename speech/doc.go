// Package speech defines the text-to-speech boundary used by the narration
// fan-out engine. A Synthesizer turns narration text into an encoded audio
// clip; speech/elevenlabs provides the hosted implementation and MockSynthesizer
// serves tests.
package speech
