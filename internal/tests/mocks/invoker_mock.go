package mocks

import "context"

type InvokerMock struct {
	InvokeFunc func(ctx context.Context, prompt string) (string, error)
	Prompts    []string
}

func (m *InvokerMock) Invoke(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, prompt)
	}
	return "", nil
}
