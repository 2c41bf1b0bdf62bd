package spjs

import (
	"encoding/json"
	"errors"
)

// DataFrame is raw serial data read from a port.
type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}

// CmdStatus reports progress of queued writes.
type CmdStatus struct {
	Cmd        string
	QueueCount int    `json:"QCnt"`
	ID         string `json:"Id"`
	Port       string `json:"P"`
}

// ErrorMessage is an error reported by the server.
type ErrorMessage struct {
	Error string
}

// SerialPortList is the reply to a list request.
type SerialPortList struct {
	SerialPorts []SerialPort
}

// SerialPort describes a port known to the server.
type SerialPort struct {
	Name         string
	Friendly     string
	SerialNumber string
	IsOpen       bool
	Baud         int
	USBVID       string
	USBPID       string
}

// JSON is the payload of a sendjson request.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}

// Data is a single queued write.
type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

var errUnknownMessage = errors.New("unknown message")

func parseMessage(data []byte) (val interface{}, err error) {
	var msg map[string]json.RawMessage
	err = json.Unmarshal(data, &msg)
	if err != nil {
		return nil, err
	}

	check := func(fieldName string, v interface{}) bool {
		if msg[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return val, err
	}
	if check("SerialPorts", &SerialPortList{}) {
		return val, err
	}
	if check("Cmd", &CmdStatus{}) {
		return val, err
	}
	if check("D", &DataFrame{}) {
		return val, err
	}

	return nil, errUnknownMessage
}
