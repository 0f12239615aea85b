package sim

// Observer receives pushed snapshots from a subject.
type Observer[T any] interface {
	Notify(info T)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc[T any] func(info T)

// Notify calls f(info).
func (f ObserverFunc[T]) Notify(info T) {
	f(info)
}

// Observable holds the registered observers of a subject (Bus, Stop).
// The zero value is ready to use.
//
// Observers are called synchronously in registration order. An observer
// MUST NOT register, clear, or otherwise touch the subject's observer list
// from inside Notify.
type Observable[T any] struct {
	observers []Observer[T]
}

// RegisterObserver appends an observer. Registering the same observer twice
// is allowed; it will then be notified twice.
func (o *Observable[T]) RegisterObserver(observer Observer[T]) {
	if observer == nil {
		return
	}
	o.observers = append(o.observers, observer)
}

// ClearObservers drops every registered observer.
func (o *Observable[T]) ClearObservers() {
	o.observers = nil
}

// NotifyObservers pushes info to each observer in registration order.
// info is passed by value; observers keep it only by copying.
func (o *Observable[T]) NotifyObservers(info T) {
	for _, obs := range o.observers {
		obs.Notify(info)
	}
}

// NumObservers returns how many observers are registered.
func (o *Observable[T]) NumObservers() int {
	return len(o.observers)
}
