package common

import (
    "os"
    "path/filepath"
)

func FileExists(path string) bool {
    info, err := os.Stat(path)
    if os.IsNotExist(err) {
        return false
    }
    if err != nil {
        return false
    }

    return !info.IsDir()
}

/* look for path next to the executable first, then relative to the current directory */
func FindFile(path string) string {
    execRelative := filepath.Join(filepath.Dir(os.Args[0]), path)
    if FileExists(execRelative) {
        return execRelative
    }

    return path
}
