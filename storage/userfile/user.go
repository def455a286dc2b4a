package userfile

import (
	"github.com/trezcool/edutrack/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username string) error {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if _, ok := repo.db.user.table[username]; ok {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	if _, ok := repo.db.user.table[usr.Username]; ok {
		return user.User{}, user.ErrUsernameExists
	}
	repo.db.user.table[usr.Username] = &usr
	repo.db.user.order = append(repo.db.user.order, usr.Username)
	if err := repo.db.flush(); err != nil {
		delete(repo.db.user.table, usr.Username)
		repo.db.user.order = repo.db.user.order[:len(repo.db.user.order)-1]
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	users := make([]user.User, 0, len(repo.db.user.order))
	for _, uname := range repo.db.user.order {
		users = append(users, *repo.db.user.table[uname])
	}
	return users, nil
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	repo.db.user.RLock()
	defer repo.db.user.RUnlock()

	if usr, ok := repo.db.user.table[username]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	repo.db.user.Lock()
	defer repo.db.user.Unlock()

	origUsr, ok := repo.db.user.table[usr.Username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	prev := *origUsr
	*origUsr = usr
	if err := repo.db.flush(); err != nil {
		*origUsr = prev
		return user.User{}, err
	}
	return usr, nil
}
