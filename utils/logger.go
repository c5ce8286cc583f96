package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

func init() {
	InfoLogger = log.New(openLogFile(), "[INFO] ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(openLogFile(), "[ERROR] ", log.Ldate|log.Ltime|log.Lshortfile)
}

// openLogFile mở file log theo ngày, không mở được thì ghi ra stderr
func openLogFile() io.Writer {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Không tạo được thư mục log %s: %v", dir, err)
		return os.Stderr
	}

	name := fmt.Sprintf("%s/stayhub-%s.log", dir, time.Now().Format("2006-01-02"))
	logFile, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Không mở được file log %s: %v", name, err)
		return os.Stderr
	}
	return logFile
}

// LogInfo ghi log thông tin
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Printf(format, v...)
}

// LogError ghi log lỗi
func LogError(format string, v ...interface{}) {
	ErrorLogger.Printf(format, v...)
}
