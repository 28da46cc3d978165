package main

import (
    selftest "github.com/kazzmir/chip8/test/all-test/selftest"
    screenshot "github.com/kazzmir/chip8/test/all-test/screenshot"
    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
    "log"
    "os"
)

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    failed := false

    ok, err := selftest.Run(false)
    if err != nil {
        log.Printf("Error: self tests failed with an error: %v", err)
        failed = true
    } else {
        log.Print(test_utils.Result("self tests", ok))
        failed = failed || !ok
    }

    ok, err = screenshot.Run(false)
    if err != nil {
        log.Printf("Error: screenshot tests failed with an error: %v", err)
        failed = true
    } else {
        log.Print(test_utils.Result("screenshot tests", ok))
        failed = failed || !ok
    }

    if failed {
        os.Exit(1)
    }
}
