// Package spjs is a client for Serial Port JSON Server, a websocket bridge
// to serial ports on another host.
package spjs

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("spjs client closed")

// Client keeps a websocket connection to the server open, reconnecting as
// needed. Outgoing messages are queued while disconnected.
type Client struct {
	url string

	outgoing chan message
	incoming chan interface{}

	closeOnce sync.Once
	closed    chan struct{}

	// ReconnectDelay is the pause between connection attempts.
	ReconnectDelay time.Duration
}

type message struct {
	done    chan struct{}
	payload []byte
}

// NewClient connects to the server at url in the background.
func NewClient(url string) *Client {
	c := &Client{
		url:            url,
		outgoing:       make(chan message, 1000),
		incoming:       make(chan interface{}, 1000),
		closed:         make(chan struct{}),
		ReconnectDelay: 3 * time.Second,
	}
	go c.loop()
	return c
}

// Messages delivers parsed server messages: *DataFrame, *CmdStatus,
// *SerialPortList or *ErrorMessage.
func (c *Client) Messages() <-chan interface{} { return c.incoming }

// Close disconnects and stops reconnecting.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *Client) readLoop(ws *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			log.Println("ERROR: read:", err)
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// echo of our own commands
			continue
		}
		val, err := parseMessage(data)
		if errors.Is(err, errUnknownMessage) {
			continue
		}
		if err != nil {
			log.Println("ERROR: parse:", err)
			continue
		}
		select {
		case c.incoming <- val:
		case <-c.closed:
			return
		}
	}
}

func (c *Client) loop() {
	var nextUp message

reconnect:
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		log.Println("Connecting to", c.url)
		ws, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			log.Println("ERROR: connect:", err)
			select {
			case <-time.After(c.ReconnectDelay):
			case <-c.closed:
				return
			}
			continue
		}
		log.Println("Connected to", c.url)
		readDone := make(chan struct{})
		go c.readLoop(ws, readDone)

		// refresh port state after a reconnect
		err = ws.WriteMessage(websocket.TextMessage, []byte("list"))
		if err != nil {
			log.Println("ERROR: send:", err)
			ws.Close()
			continue
		}

		for {
			if nextUp.done != nil {
				err = ws.WriteMessage(websocket.TextMessage, nextUp.payload)
				if err != nil {
					log.Println("ERROR: send:", err)
					ws.Close()
					continue reconnect
				}
				close(nextUp.done)
				nextUp.done = nil
			}

			select {
			case <-readDone:
				ws.Close()
				continue reconnect
			case <-c.closed:
				ws.Close()
				return
			case nextUp = <-c.outgoing:
			}
		}
	}
}

func (c *Client) write(payload []byte) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	ch := make(chan struct{})
	select {
	case c.outgoing <- message{done: ch, payload: payload}:
	case <-c.closed:
		return ErrClosed
	}
	select {
	case <-ch:
		return nil
	case <-c.closed:
		return ErrClosed
	}
}

// WriteString sends a raw server command such as "list".
func (c *Client) WriteString(cmd string) error { return c.write([]byte(cmd)) }

// List requests the port list; the reply arrives on Messages.
func (c *Client) List() error { return c.WriteString("list") }

// Open asks the server to open port at the given baud rate using its
// default buffer algorithm.
func (c *Client) Open(port string, baud int) error {
	return c.WriteString("open " + port + " " + strconv.Itoa(baud) + " default")
}

// ClosePort asks the server to close port.
func (c *Client) ClosePort(port string) error { return c.WriteString("close " + port) }

// SendJSON queues writes to a port.
func (c *Client) SendJSON(v JSON) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.write(append([]byte("sendjson "), data...))
}
