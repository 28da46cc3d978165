package main

import (
    "context"
    "encoding/binary"
    "log"
    "math"
    "sync/atomic"
    "time"

    audiolib "github.com/hajimehoshi/ebiten/v2/audio"
)

const AudioSampleRate = 44100
const ToneFrequency = 440.0
const ToneVolume = 0.15

/* An endless stereo float32 stream that plays a square wave while the tone is on
 * and silence otherwise. The emulator flips the tone, the audio player reads.
 */
type ToneStream struct {
    on atomic.Bool
    phase float64
    step float64
}

func MakeToneStream(sampleRate int, frequency float64) *ToneStream {
    return &ToneStream{
        step: frequency / float64(sampleRate),
    }
}

func (stream *ToneStream) SetTone(on bool) {
    stream.on.Store(on)
}

func (stream *ToneStream) ToneOn() bool {
    return stream.on.Load()
}

/* fill data with whole stereo frames, 4 bytes per channel */
func (stream *ToneStream) Read(data []byte) (int, error) {
    frames := len(data) / 8
    on := stream.on.Load()

    for i := 0; i < frames; i++ {
        var value float32
        if on {
            if stream.phase < 0.5 {
                value = ToneVolume
            } else {
                value = -ToneVolume
            }
        }

        bits := math.Float32bits(value)
        binary.LittleEndian.PutUint32(data[i*8:], bits)
        binary.LittleEndian.PutUint32(data[i*8+4:], bits)

        stream.phase += stream.step
        if stream.phase >= 1 {
            stream.phase -= 1
        }
    }

    return frames * 8, nil
}

/* play the tone stream, switching it on and off as the emulator reports the sound timer */
func runAudio(quit context.Context, audio *audiolib.Context, stream *ToneStream, tone <-chan bool){
    player, err := audio.NewPlayerF32(stream)
    if err != nil {
        log.Printf("Error creating audio player: %v", err)
        return
    }
    player.SetBufferSize(time.Millisecond * 50)
    player.Play()
    defer player.Pause()

    for {
        select {
            case <-quit.Done():
                return
            case on := <-tone:
                stream.SetTone(on)
        }
    }
}
