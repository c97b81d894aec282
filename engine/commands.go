package engine

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/host"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/queue"
	"go.uber.org/zap"
)

func (p *plugin) LoadModel(inv host.Invocation, id int, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.resolve(inv, id)
	if err != nil {
		return err
	}
	p.enqueue(queue.AsyncTask(func(done func()) {
		p.fetcher.Fetch(path, func(m model.Model, err error) {
			if err != nil {
				p.log.Warn("model load failed", zap.Int("entity", id), zap.String("path", path), zap.Error(err))
				p.errs.ShowError("Error: couldn't load " + path)
				done()
				return
			}
			p.queue.WhenFresh(func() {
				if err := p.mutator.Attach(id, inv, m); err != nil {
					p.log.Warn("model not attached", zap.Int("entity", id), zap.String("path", path), zap.Error(err))
				}
				done()
			})
		})
	}))
	return nil
}

// queued queues fn as a synchronous command for the resolved identifier.
func (p *plugin) queued(inv host.Invocation, id int, fn func(id int)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.resolve(inv, id)
	if err != nil {
		return err
	}
	p.enqueue(queue.SyncTask(func() { fn(id) }))
	return nil
}

func (p *plugin) ResetBoundingBox(inv host.Invocation, id int) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.ResetBoundingBox(id, inv)
	})
}

func (p *plugin) SetBoundingBox(inv host.Invocation, id int, x, y, z float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetBoundingBox(id, inv, x, y, z)
	})
}

func (p *plugin) SetScale(inv host.Invocation, id int, scale float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetScale(id, scale)
	})
}

func (p *plugin) SetVisibility(inv host.Invocation, id int, visible bool) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetVisible(id, visible)
	})
}

func (p *plugin) SetOpacity(inv host.Invocation, id int, opacity float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetOpacity(id, opacity)
	})
}

func (p *plugin) SetOffset(inv host.Invocation, id int, x, y, z float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetOffset(id, x, y, z)
	})
}

func (p *plugin) SetRotation(inv host.Invocation, id int, x, y, z float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.SetRotation(id, x, y, z)
	})
}

func (p *plugin) AddRotation(inv host.Invocation, id int, x, y, z float32) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.AddRotation(id, x, y, z)
	})
}

func (p *plugin) RetrieveYRotation(inv host.Invocation, id int, property string) error {
	return p.queued(inv, id, func(id int) {
		p.mutator.RetrieveYRotation(id, inv, property)
	})
}

func (p *plugin) LookAt(inv host.Invocation, subject, target int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	subject, err := p.resolve(inv, subject)
	if err != nil {
		return err
	}
	target, err = p.resolve(inv, target)
	if err != nil {
		return err
	}
	p.enqueue(queue.SyncTask(func() {
		p.mutator.LookAt(subject, target, inv)
	}))
	return nil
}

func (p *plugin) PlayAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error {
	return p.queued(inv, id, func(id int) {
		if !p.registry.Play(id, clip, loop, speed) {
			p.log.Debug("animation not played", zap.Int("entity", id), zap.String("clip", clip))
		}
	})
}

func (p *plugin) QueueAnimation(inv host.Invocation, id int, clip string, loop bool, speed float32) error {
	return p.queued(inv, id, func(id int) {
		if !p.registry.Queue(id, clip, loop, speed) {
			p.log.Debug("animation not queued", zap.Int("entity", id), zap.String("clip", clip))
		}
	})
}

func (p *plugin) StopAnimation(inv host.Invocation, id int) error {
	return p.queued(inv, id, func(id int) {
		p.registry.Stop(id)
	})
}

func (p *plugin) SetAnimationSpeed(inv host.Invocation, id int, speed float32) error {
	return p.queued(inv, id, func(id int) {
		p.registry.SetSpeed(id, speed)
	})
}

func (p *plugin) TriggerEvent(eventID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enqueue(queue.SyncTask(func() {
		p.events.SendEventDetection(eventID)
	}))
}

func (p *plugin) ModelInfo(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetcher.Fetch(path, func(m model.Model, err error) {
		if err != nil {
			p.log.Warn("model info load failed", zap.String("path", path), zap.Error(err))
			p.errs.ShowError("Error: couldn't load " + path)
			return
		}
		p.dialog.Alert(p.report(m))
	})
}
