package spin

import "sync"

// queue Очередь ID спинов. Спин, который уже в очереди или обрабатывается, повторно не ставится.
type queue struct {
	ch chan string

	mtx     sync.Mutex
	pending map[string]struct{}
}

func newQueue(size int) *queue {
	return &queue{
		ch:      make(chan string, size),
		pending: make(map[string]struct{}),
	}
}

// push Ставит спин в очередь. queued=false и full=false: спин уже в очереди или у воркера.
func (q *queue) push(id string) (queued, full bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if _, ok := q.pending[id]; ok {
		return false, false
	}
	select {
	case q.ch <- id:
		q.pending[id] = struct{}{}
		return true, false
	default:
		// очередь полна, спин подберет следующий Resume
		return false, true
	}
}

func (q *queue) done(id string) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	delete(q.pending, id)
}
