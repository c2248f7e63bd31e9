package application

import (
	"sort"
	"sync"
)

// observers は更新通知のコールバック一覧
type observers struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (o *observers) add(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fns == nil {
		o.fns = make(map[int]func())
	}
	id := o.next
	o.next++
	o.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// notify は登録順にコールバックを呼ぶ
// コールバック内から購読解除や予約操作をしてもデッドロックしない
func (o *observers) notify() {
	o.mu.Lock()
	ids := make([]int, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	o.mu.Unlock()

	sort.Ints(ids)
	for _, id := range ids {
		o.mu.Lock()
		fn, ok := o.fns[id]
		o.mu.Unlock()
		if ok {
			fn()
		}
	}
}
