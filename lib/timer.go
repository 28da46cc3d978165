package lib

/* both timers count down at this rate regardless of how fast instructions execute */
const TimerFrequency = 60

type Timers struct {
    Delay byte
    Sound byte
}

/* decrement both timers by one. returns true if the sound
 * timer was running for this tick, which means the tone should play
 */
func (timers *Timers) Tick() bool {
    if timers.Delay > 0 {
        timers.Delay -= 1
    }

    tone := timers.Sound > 0
    if tone {
        timers.Sound -= 1
    }

    return tone
}

func (timers *Timers) SoundActive() bool {
    return timers.Sound > 0
}
