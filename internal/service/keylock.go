package service

import "sync"

// keyLock — взаимное исключение по строковому ключу.
//
// Мьютексы создаются при первом обращении и живут до конца
// процесса: пользователей конечное число, а хранение мьютекса
// дешевле корректного удаления под конкурентным доступом.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения.
func (k *keyLock) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
