package mqtt

import (
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// fakeToken implements pahomqtt.Token.
type fakeToken struct {
	done chan struct{}
	err  error
}

func completedToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{done: done, err: err}
}

// pendingToken never completes, like a broker that does not answer.
func pendingToken() *fakeToken {
	return &fakeToken{done: make(chan struct{})}
}

func (t *fakeToken) Wait() bool {
	<-t.done
	return true
}

func (t *fakeToken) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *fakeToken) Done() <-chan struct{} { return t.done }
func (t *fakeToken) Error() error          { return t.err }

type publishedMessage struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient implements pahomqtt.Client and records what the publisher did.
type fakeClient struct {
	mu sync.Mutex

	opts         *pahomqtt.ClientOptions
	connectToken *fakeToken
	publishToken *fakeToken

	connectCalls int
	published    []publishedMessage
	disconnects  []uint
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		connectToken: completedToken(nil),
		publishToken: completedToken(nil),
	}
}

func (c *fakeClient) IsConnected() bool      { return false }
func (c *fakeClient) IsConnectionOpen() bool { return false }

func (c *fakeClient) Connect() pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connectCalls++
	return c.connectToken
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnects = append(c.disconnects, quiesce)
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := payload.([]byte)
	c.published = append(c.published, publishedMessage{topic: topic, qos: qos, retained: retained, payload: b})
	return c.publishToken
}

func (c *fakeClient) Subscribe(string, byte, pahomqtt.MessageHandler) pahomqtt.Token {
	return completedToken(nil)
}

func (c *fakeClient) SubscribeMultiple(map[string]byte, pahomqtt.MessageHandler) pahomqtt.Token {
	return completedToken(nil)
}

func (c *fakeClient) Unsubscribe(...string) pahomqtt.Token { return completedToken(nil) }

func (c *fakeClient) AddRoute(string, pahomqtt.MessageHandler) {}

func (c *fakeClient) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.ClientOptionsReader{}
}

// install makes p hand out c instead of a real paho client.
func (c *fakeClient) install(p *Publisher) {
	p.newClient = func(opts *pahomqtt.ClientOptions) pahomqtt.Client {
		c.mu.Lock()
		c.opts = opts
		c.mu.Unlock()
		return c
	}
}
