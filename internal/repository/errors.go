package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateKey 唯一约束冲突，上层据此判定重复交互或并发写竞争
var ErrDuplicateKey = errors.New("duplicate key")

func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrDuplicateKey
	}
	return err
}
