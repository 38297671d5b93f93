package storage

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var _ objectAPI = &objectAPIMock{}

type objectAPIMock struct {
	PutObjectFunc  func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObjectFunc  func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucketFunc func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)

	calls struct {
		PutObject  []*s3.PutObjectInput
		GetObject  []*s3.GetObjectInput
		HeadBucket []*s3.HeadBucketInput
	}
	lockPutObject  sync.RWMutex
	lockGetObject  sync.RWMutex
	lockHeadBucket sync.RWMutex
}

func (m *objectAPIMock) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc == nil {
		panic("objectAPIMock.PutObjectFunc: method is nil but objectAPI.PutObject was just called")
	}
	m.lockPutObject.Lock()
	m.calls.PutObject = append(m.calls.PutObject, params)
	m.lockPutObject.Unlock()
	return m.PutObjectFunc(ctx, params, optFns...)
}

func (m *objectAPIMock) PutObjectCalls() []*s3.PutObjectInput {
	m.lockPutObject.RLock()
	defer m.lockPutObject.RUnlock()
	return m.calls.PutObject
}

func (m *objectAPIMock) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc == nil {
		panic("objectAPIMock.GetObjectFunc: method is nil but objectAPI.GetObject was just called")
	}
	m.lockGetObject.Lock()
	m.calls.GetObject = append(m.calls.GetObject, params)
	m.lockGetObject.Unlock()
	return m.GetObjectFunc(ctx, params, optFns...)
}

func (m *objectAPIMock) GetObjectCalls() []*s3.GetObjectInput {
	m.lockGetObject.RLock()
	defer m.lockGetObject.RUnlock()
	return m.calls.GetObject
}

func (m *objectAPIMock) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.HeadBucketFunc == nil {
		panic("objectAPIMock.HeadBucketFunc: method is nil but objectAPI.HeadBucket was just called")
	}
	m.lockHeadBucket.Lock()
	m.calls.HeadBucket = append(m.calls.HeadBucket, params)
	m.lockHeadBucket.Unlock()
	return m.HeadBucketFunc(ctx, params, optFns...)
}

func (m *objectAPIMock) HeadBucketCalls() []*s3.HeadBucketInput {
	m.lockHeadBucket.RLock()
	defer m.lockHeadBucket.RUnlock()
	return m.calls.HeadBucket
}
