package cache

import (
	"github.com/gomodule/redigo/redis"
)

func Get(key string, conn *redis.Conn) (string, error) {
	return redis.String((*conn).Do("GET", key))
}

func Set(key string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("SET", key, value)
	return err
}

func Del(key string, conn *redis.Conn) error {
	_, err := (*conn).Do("DEL", key)
	return err
}

func HSET(key string, field string, value interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("HSET", key, field, value)
	return err
}

func HGET(key string, field string, conn *redis.Conn) (string, error) {
	return redis.String((*conn).Do("HGET", key, field))
}

func HGETALL(key string, conn *redis.Conn) (map[string]string, error) {
	return redis.StringMap((*conn).Do("HGETALL", key))
}

func HDEL(key string, field string, conn *redis.Conn) error {
	_, err := (*conn).Do("HDEL", key, field)
	return err
}

func HINCRBY(key string, field string, n int, conn *redis.Conn) (int, error) {
	return redis.Int((*conn).Do("HINCRBY", key, field, n))
}

func RPUSH(key string, values []interface{}, conn *redis.Conn) error {
	_, err := (*conn).Do("RPUSH", redis.Args{}.Add(key).AddFlat(values)...)
	return err
}

func LGET(key string, conn *redis.Conn) ([]string, error) {
	return redis.Strings((*conn).Do("LRANGE", key, 0, -1))
}
