//go:build !windows

package util

import (
    "os/exec"
    "os"
    "io"
    "log"
    "fmt"
    "time"
    "syscall"
    "context"
    "strconv"

    chip8 "github.com/kazzmir/chip8/lib"
)

func FindFfmpegBinary() (string, error) {
    return exec.LookPath("ffmpeg")
}

func niceSize(path string) string {
    info, err := os.Stat(path)
    if err != nil {
        return ""
    }

    size := float64(info.Size())
    suffixes := []string{"b", "kb", "mb", "gb"}
    suffix := 0

    for size > 1024 && suffix < len(suffixes) - 1 {
        size /= 1024
        suffix += 1
    }

    return fmt.Sprintf("%.2f%v", size, suffixes[suffix])
}

func waitForProcess(process *os.Process, timeout int){
    done := time.Now().Add(time.Second * time.Duration(timeout))
    dead := false
    for time.Now().Before(done) {
        /* signal 0 does nothing but fails once the process is gone */
        err := process.Signal(syscall.Signal(0))
        if err == nil {
            time.Sleep(time.Millisecond * 100)
        } else {
            dead = true
            break
        }
    }
    if !dead {
        log.Printf("Killing pid %v", process.Pid)
        process.Kill()
    }
    process.Wait()
}

/* one byte per pixel, suitable for ffmpeg's gray pixel format */
func DisplayToGray(display *chip8.Display, out []byte) []byte {
    out = out[:0]
    for y := 0; y < chip8.DisplayHeight; y++ {
        for x := 0; x < chip8.DisplayWidth; x++ {
            if display.Pixel(x, y) {
                out = append(out, 255)
            } else {
                out = append(out, 0)
            }
        }
    }
    return out
}

func drain(name string, reader io.ReadCloser){
    buffer := make([]byte, 4096)
    for {
        _, err := reader.Read(buffer)
        if err != nil {
            if err != io.EOF {
                log.Printf("Could not read ffmpeg %v: %v", name, err)
            }
            return
        }
    }
}

/* Record every display that arrives on frames into an mp4 until mainQuit is done.
 * Frames are timestamped as they arrive so a paused emulator produces a still video.
 */
func RecordVideo(mainQuit context.Context, videoPath string, scale int, frames <-chan chip8.Display) error {
    ffmpeg_binary_path, err := FindFfmpegBinary()
    if err != nil {
        return fmt.Errorf("Could not find ffmpeg: %v", err)
    }

    video_reader, video_writer, err := os.Pipe()
    if err != nil {
        return err
    }

    log.Printf("Launching ffmpeg")
    ffmpeg_process := exec.Command(ffmpeg_binary_path,
        "-use_wallclock_as_timestamps", "1",
        "-f", "rawvideo",
        "-pix_fmt", "gray",
        "-s", fmt.Sprintf("%vx%v", chip8.DisplayWidth, chip8.DisplayHeight),
        "-i", "pipe:3", // video is passed as fd 3

        "-vf", "scale=iw*" + strconv.Itoa(scale) + ":ih*" + strconv.Itoa(scale) + ":flags=neighbor",
        "-vsync", "vfr",
        "-pix_fmt", "yuv420p",
        "-tune", "zerolatency",
        "-y", // overwrite output if the file already exists
        videoPath)

    ffmpeg_process.ExtraFiles = []*os.File{video_reader}

    stdout, err := ffmpeg_process.StdoutPipe()
    if err != nil {
        log.Printf("Could not get ffmpeg stdout: %v", err)
        return err
    }

    stderr, err := ffmpeg_process.StderrPipe()
    if err != nil {
        log.Printf("Could not get ffmpeg stderr: %v", err)
        return err
    }

    err = ffmpeg_process.Start()
    if err != nil {
        log.Printf("Could not start ffmpeg: %v", err)
        video_reader.Close()
        video_writer.Close()
        return err
    }

    /* the child has its own copy now */
    video_reader.Close()

    go drain("stdout", stdout)
    go drain("stderr", stderr)

    log.Printf("Recording to %v", videoPath)
    startTime := time.Now()

    var buffer []byte
    loop:
    for {
        select {
            case <-mainQuit.Done():
                break loop
            case display := <-frames:
                buffer = DisplayToGray(&display, buffer)
                _, err := video_writer.Write(buffer)
                if err != nil {
                    log.Printf("Could not write to ffmpeg: %v", err)
                    break loop
                }
        }
    }

    /* ffmpeg will normally close on its own once its input is closed */
    video_writer.Close()
    ffmpeg_process.Process.Signal(os.Interrupt)
    waitForProcess(ffmpeg_process.Process, 10)
    log.Printf("Recording has ended. Saved '%v' for %v size %v", videoPath, time.Now().Sub(startTime), niceSize(videoPath))

    return nil
}
