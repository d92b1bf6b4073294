package network

import (
	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sasha-s/go-deadlock"
)

// SendBufferSize - ёмкость личного канала. Переполненный канал (медленный клиент) теряет сообщения.
const SendBufferSize = 256

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Реализует engine.Notifier.
type Broadcaster struct {
	mu deadlock.RWMutex
	// Мапа: UserID -> Личный канал
	subscribers map[string]chan api.ServerMessage
	// Мапа: SessionID -> UserID участников
	sessions map[string]map[string]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerMessage),
		sessions:    make(map[string]map[string]struct{}),
	}
}

// Register создает личный канал пользователя.
// Повторная регистрация (переподключение) закрывает старый канал.
func (b *Broadcaster) Register(userID string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[userID]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, SendBufferSize)
	b.subscribers[userID] = ch
	return ch
}

// Unregister удаляет подписчика, если его канал всё ещё ch.
// Канал, уже замененный новым соединением, не трогаем.
func (b *Broadcaster) Unregister(userID string, ch chan api.ServerMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, ok := b.subscribers[userID]
	if !ok || cur != ch {
		return
	}
	close(cur)
	delete(b.subscribers, userID)
	for id, members := range b.sessions {
		delete(members, userID)
		if len(members) == 0 {
			delete(b.sessions, id)
		}
	}
}

// JoinSession добавляет пользователя в список рассылки сессии
func (b *Broadcaster) JoinSession(sessionID, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	members, ok := b.sessions[sessionID]
	if !ok {
		members = make(map[string]struct{})
		b.sessions[sessionID] = members
	}
	members[userID] = struct{}{}
}

// LeaveSession убирает пользователя из рассылки сессии
func (b *Broadcaster) LeaveSession(sessionID, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if members, ok := b.sessions[sessionID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(b.sessions, sessionID)
		}
	}
}

// SendTo отправляет сообщение конкретному пользователю (Unicast)
func (b *Broadcaster) SendTo(userID string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	b.sendLocked(userID, msg)
}

func (b *Broadcaster) sendLocked(userID string, msg api.ServerMessage) {
	ch, ok := b.subscribers[userID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		logger.Log.WithField("user_id", userID).WithField("type", msg.Type).Warn("Hub: channel full, message dropped")
	}
}

// Publish рассылает событие всем участникам сессии
func (b *Broadcaster) Publish(sessionID string, evt domain.Event) {
	msg := toMessage(evt)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for userID := range b.sessions[sessionID] {
		b.sendLocked(userID, msg)
	}
}

// NotifyUser отправляет событие лично пользователю
func (b *Broadcaster) NotifyUser(userID string, evt domain.Event) {
	b.SendTo(userID, toMessage(evt))
}

// HasSubscriber проверяет, подключен ли пользователь
func (b *Broadcaster) HasSubscriber(userID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[userID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func toMessage(evt domain.Event) api.ServerMessage {
	return api.ServerMessage{Type: string(evt.Type), Payload: evt.Payload}
}
