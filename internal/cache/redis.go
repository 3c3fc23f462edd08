package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/config"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

func InitRedis(cfg *config.Config) {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("[redis] error conectando: %v", err)
	}

	log.Println("[redis] OK.")
}

// =======================================================
//  Helpers JSON para usar desde los servicios
// =======================================================

// GetJSON lee una key de Redis, si existe deserializa el JSON en `dest`.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}

	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		// no existe la clave
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa `value` a JSON y lo guarda en Redis con TTL en segundos.
func SetJSON(ctx context.Context, key string, value any, ttlSeconds int) error {
	if client == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	return client.Set(ctx, key, b, ttl).Err()
}

func Delete(ctx context.Context, keys ...string) error {
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

// =======================================================
//  Versión de exclusión por identidad
// =======================================================
//
// Cada escritura de interacción incrementa la versión. La respuesta de la
// API incluye el número y el cliente descarta pares/listas cacheados cuando
// ve uno más nuevo (nada de campos "cache buster" ad hoc).

func versionKey(identity string) string {
	return fmt.Sprintf("excl:ver:%s", identity)
}

// BumpExclusionVersion incrementa y devuelve la versión de la identidad.
func BumpExclusionVersion(ctx context.Context, identity string) (int64, error) {
	if client == nil {
		return 0, nil
	}
	return client.Incr(ctx, versionKey(identity)).Result()
}

// ExclusionVersion devuelve la versión actual (0 si nunca se incrementó).
func ExclusionVersion(ctx context.Context, identity string) (int64, error) {
	if client == nil {
		return 0, nil
	}
	v, err := client.Get(ctx, versionKey(identity)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// =======================================================
//  Versión de lote de recomendaciones
// =======================================================
//
// Se incrementa al terminar cada regeneración; entra en la key del cache
// de páginas para que un lote nuevo invalide las páginas viejas solo.

func batchKey(identity string) string {
	return fmt.Sprintf("recs:batch:%s", identity)
}

func BumpBatchVersion(ctx context.Context, identity string) (int64, error) {
	if client == nil {
		return 0, nil
	}
	return client.Incr(ctx, batchKey(identity)).Result()
}

func BatchVersion(ctx context.Context, identity string) (int64, error) {
	if client == nil {
		return 0, nil
	}
	v, err := client.Get(ctx, batchKey(identity)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// =======================================================
//  Lock de regeneración (red de seguridad del coalescing)
// =======================================================
//
// El marcador principal vive en memoria (refresh service); este SETNX con
// TTL evita que un crash sin release deje la identidad bloqueada, y de paso
// cubre el caso de correr más de una réplica del API.

func lockKey(identity string) string {
	return fmt.Sprintf("regen:lock:%s", identity)
}

func AcquireRegenLock(ctx context.Context, identity string, ttl time.Duration) (bool, error) {
	if client == nil {
		return true, nil
	}
	return client.SetNX(ctx, lockKey(identity), 1, ttl).Result()
}

func ReleaseRegenLock(ctx context.Context, identity string) error {
	if client == nil {
		return nil
	}
	return client.Del(ctx, lockKey(identity)).Err()
}
